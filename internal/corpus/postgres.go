package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/exactmatch-ir/exactmatch/internal/index"
	pkgerrors "github.com/exactmatch-ir/exactmatch/pkg/errors"
	"github.com/exactmatch-ir/exactmatch/pkg/postgres"
)

// LoadPostgres reads the collection from a table with (doc_id text,
// body text) columns. Numeric doc_id values become numeric identifiers, the
// same tagging rule the filesystem loader applies to filenames. Rows that
// fail to scan are skipped and reported, mirroring LoadDir's partial-failure
// behavior.
func LoadPostgres(ctx context.Context, client *postgres.Client, table string) (Collection, error) {
	// Table names cannot be bind parameters; the value comes from config,
	// not request input.
	query := fmt.Sprintf(`SELECT doc_id, body FROM %s`, table)
	rows, err := client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus table %s: %w", table, err)
	}
	defer rows.Close()

	logger := slog.Default().With("component", "corpus-loader")
	coll := make(Collection)
	var loadErrs *multierror.Error
	for rows.Next() {
		var rawID, body string
		if err := rows.Scan(&rawID, &body); err != nil {
			logger.Warn("skipping unreadable row", "table", table, "error", err)
			loadErrs = multierror.Append(loadErrs,
				fmt.Errorf("%w: row in %s: %v", pkgerrors.ErrDocumentSkipped, table, err))
			continue
		}
		coll[index.ParseDocID(rawID)] = strings.ToLower(body)
	}
	if err := rows.Err(); err != nil {
		return coll, fmt.Errorf("iterating corpus table %s: %w", table, err)
	}
	return coll, loadErrs.ErrorOrNil()
}
