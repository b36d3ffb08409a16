package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read as defaults for flags and run file fields.
const (
	LibraryEnv = "GOCONN_LIBRARY"
	AuthorEnv  = "GOCONN_AUTHOR"
)

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. With no files it reads ./.env
// and ignores it if missing.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if len(files) == 0 && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv fills library and author from the environment when the run
// file leaves them empty.
func (rf *RunFile) ApplyEnv() {
	if rf.Library == "" {
		rf.Library = os.Getenv(LibraryEnv)
	}
	if rf.Author == "" {
		rf.Author = os.Getenv(AuthorEnv)
	}
}
