package corpus

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/exactmatch-ir/exactmatch/internal/index"
	pkgerrors "github.com/exactmatch-ir/exactmatch/pkg/errors"
)

// LoadDir reads every regular file in dir as one document. The document ID
// comes from the digits in the filename, or the whole filename when it has
// none. A file that cannot be read or decoded is skipped so one bad document
// never aborts the whole collection; the per-file failures come back
// aggregated alongside the documents that did load.
func LoadDir(dir string, encodingName string) (Collection, error) {
	dec, err := decoderFor(encodingName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading corpus dir %s: %v", pkgerrors.ErrCorpusNotFound, dir, err)
	}

	logger := slog.Default().With("component", "corpus-loader")
	coll := make(Collection, len(entries))
	var loadErrs *multierror.Error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text, err := readDecoded(path, dec)
		if err != nil {
			logger.Warn("skipping unreadable document", "path", path, "error", err)
			loadErrs = multierror.Append(loadErrs,
				fmt.Errorf("%w: %s: %v", pkgerrors.ErrDocumentSkipped, entry.Name(), err))
			continue
		}
		docID := index.ParseDocID(entry.Name())
		coll[docID] = strings.ToLower(text)
	}
	return coll, loadErrs.ErrorOrNil()
}

func readDecoded(path string, dec *encoding.Decoder) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(dec.Reader(f))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decoderFor maps a config encoding name to a decoder. The original corpus
// ships as Windows-1252 text files.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "utf-8", "utf8":
		return unicode.UTF8.NewDecoder(), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported corpus encoding %q", name)
	}
}
