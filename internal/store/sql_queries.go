// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	blobsTable     = "blobs"
	blobKeyColumn  = "blob_key"
	blobDataColumn = "data"
	blobSizeColumn = "size"
	blobTimeColumn = "created_at"
)

// likeEscaper escapes LIKE wildcards so that prefixes match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func buildReadBlobQuery(d Dialect, key string) (string, []any, error) {
	return sq.Select(blobDataColumn).
		From(blobsTable).
		Where(sq.Eq{blobKeyColumn: key}).
		PlaceholderFormat(d.placeholder()).
		ToSql()
}

func buildUpsertBlobQuery(d Dialect, key string, data []byte, createdAt any) (string, []any, error) {
	return sq.Insert(blobsTable).
		Columns(blobKeyColumn, blobDataColumn, blobSizeColumn, blobTimeColumn).
		Values(key, data, len(data), createdAt).
		Suffix("ON CONFLICT (" + blobKeyColumn + ") DO UPDATE SET " +
			blobDataColumn + " = excluded." + blobDataColumn + ", " +
			blobSizeColumn + " = excluded." + blobSizeColumn).
		PlaceholderFormat(d.placeholder()).
		ToSql()
}

// buildRemoveBlobQuery deletes key and every key beneath it.
func buildRemoveBlobQuery(d Dialect, key string) (string, []any, error) {
	return sq.Delete(blobsTable).
		Where(sq.Or{
			sq.Eq{blobKeyColumn: key},
			prefixPredicate(key + "/"),
		}).
		PlaceholderFormat(d.placeholder()).
		ToSql()
}

// buildListBlobKeysQuery selects every key under prefix in key order; an
// empty prefix selects all keys.
func buildListBlobKeysQuery(d Dialect, prefix string) (string, []any, error) {
	query := sq.Select(blobKeyColumn).
		From(blobsTable).
		OrderBy(blobKeyColumn).
		PlaceholderFormat(d.placeholder())
	if prefix != "" {
		query = query.Where(prefixPredicate(prefix))
	}
	return query.ToSql()
}

func prefixPredicate(prefix string) sq.Sqlizer {
	return sq.Expr(blobKeyColumn+` LIKE ? ESCAPE '\'`, likeEscaper.Replace(prefix)+"%")
}
