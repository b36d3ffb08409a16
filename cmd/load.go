package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/config"
	"github.com/alexiusacademia/goconn/internal/etabs"
	"github.com/alexiusacademia/goconn/internal/model"
)

// loadModel reads a model from a JSON snapshot or an ETABS workbook.
// Exactly one of the two paths must be set.
func loadModel(jsonPath, xlsxPath string) (*model.Model, string, error) {
	switch {
	case jsonPath != "" && xlsxPath != "":
		return nil, "", errors.New("use either --model or --xlsx, not both")
	case xlsxPath != "":
		m, err := etabs.LoadWorkbook(xlsxPath)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", xlsxPath, err)
		}
		return m, xlsxPath, nil
	case jsonPath != "":
		m, err := model.LoadFromFile(jsonPath)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", jsonPath, err)
		}
		return m, jsonPath, nil
	}
	return nil, "", errors.New("a model is required (--model or --xlsx)")
}

// loadLibrary reads the capacity library, falling back to GOCONN_LIBRARY.
func loadLibrary(path string) (*capacity.Library, string, error) {
	if path == "" {
		path = os.Getenv(config.LibraryEnv)
	}
	if path == "" {
		return nil, "", fmt.Errorf("a capacity library is required (--library or %s)", config.LibraryEnv)
	}
	lib, err := capacity.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return lib, path, nil
}
