package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/exactmatch-ir/exactmatch/internal/analyzer"
	"github.com/exactmatch-ir/exactmatch/internal/index"
	pkgerrors "github.com/exactmatch-ir/exactmatch/pkg/errors"
)

func writeDoc(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "Document_1.txt", []byte("Data Mining is FUN"))
	writeDoc(t, dir, "2.txt", []byte("mining data science"))
	writeDoc(t, dir, "notes.txt", []byte("plain notes"))

	coll, err := LoadDir(dir, "windows-1252")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(coll) != 3 {
		t.Fatalf("loaded %d documents, want 3", len(coll))
	}
	if got := coll[index.NumericID(1)]; got != "data mining is fun" {
		t.Errorf("doc 1 = %q, want lowercased text", got)
	}
	if got := coll[index.NumericID(2)]; got != "mining data science" {
		t.Errorf("doc 2 = %q", got)
	}
	if got := coll[index.NameID("notes.txt")]; got != "plain notes" {
		t.Errorf("notes.txt = %q", got)
	}
}

func TestLoadDirWindows1252(t *testing.T) {
	dir := t.TempDir()
	// 0xE9 is é in Windows-1252; raw bytes, not valid UTF-8.
	writeDoc(t, dir, "7.txt", []byte{'c', 'a', 'f', 0xE9})

	coll, err := LoadDir(dir, "windows-1252")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := coll[index.NumericID(7)]; got != "café" {
		t.Errorf("decoded text = %q, want %q", got, "café")
	}
}

func TestLoadDirSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "1.txt", []byte("alpha"))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	coll, err := LoadDir(dir, "")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(coll) != 1 {
		t.Errorf("loaded %d documents, want 1", len(coll))
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"), "")
	if !errors.Is(err, pkgerrors.ErrCorpusNotFound) {
		t.Errorf("err = %v, want ErrCorpusNotFound", err)
	}
}

func TestLoadDirUnsupportedEncoding(t *testing.T) {
	if _, err := LoadDir(t.TempDir(), "ebcdic"); err == nil {
		t.Error("unsupported encoding accepted")
	}
}

func TestLoadDirPartialFailure(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "1.txt", []byte("alpha"))
	unreadable := filepath.Join(dir, "2.txt")
	writeDoc(t, dir, "2.txt", []byte("beta"))
	if err := os.Chmod(unreadable, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(unreadable, 0o644) })
	if os.Getuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	coll, err := LoadDir(dir, "")
	if !errors.Is(err, pkgerrors.ErrDocumentSkipped) {
		t.Errorf("err = %v, want ErrDocumentSkipped", err)
	}
	if len(coll) != 1 {
		t.Errorf("loaded %d documents, want the readable one", len(coll))
	}
}

func TestBuildStreams(t *testing.T) {
	an := analyzer.New(analyzer.NewStopwords("is"))
	coll := Collection{
		index.NumericID(1): "data mining is fun",
		index.NumericID(2): "mining data science",
	}

	streams, err := BuildStreams(context.Background(), coll, an, 4)
	if err != nil {
		t.Fatalf("BuildStreams: %v", err)
	}
	want := index.TokenStreams{
		index.NumericID(1): {"data", "mine", "fun"},
		index.NumericID(2): {"mine", "data", "scienc"},
	}
	if !reflect.DeepEqual(streams, want) {
		t.Errorf("streams = %v, want %v", streams, want)
	}
}

func TestBuildStreamsDeterministic(t *testing.T) {
	an := analyzer.New(nil)
	coll := make(Collection, 50)
	for i := 0; i < 50; i++ {
		coll[index.NumericID(i)] = strings.Repeat("information retrieval ", 20)
	}

	first, err := BuildStreams(context.Background(), coll, an, 8)
	if err != nil {
		t.Fatalf("BuildStreams: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := BuildStreams(context.Background(), coll, an, 2)
		if err != nil {
			t.Fatalf("BuildStreams: %v", err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatal("worker count changed the streams")
		}
	}
}

func TestBuildStreamsCancelled(t *testing.T) {
	an := analyzer.New(nil)
	coll := make(Collection, 100)
	for i := 0; i < 100; i++ {
		coll[index.NumericID(i)] = "some text"
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := BuildStreams(ctx, coll, an, 2); err == nil {
		t.Error("cancelled context did not abort the build")
	}
}
