package wordstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LoadPostgres fetches the word list from the words table of the
// database at connString. Used when DRAWDASH_DATABASE_URL is set; the
// list is read once at startup.
func LoadPostgres(ctx context.Context, connString string) ([]string, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to word database: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, `SELECT word FROM words WHERE word <> '' ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}

	words, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan words: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("words table is empty")
	}
	return words, nil
}
