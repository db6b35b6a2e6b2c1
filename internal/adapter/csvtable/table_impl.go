package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/user/storefront-harvester/internal/entity"
	"github.com/user/storefront-harvester/internal/repository"
)

const utf8BOM = "\ufeff"

// TableRepoImpl provides a concrete implementation for the TableReader
// interface over comma-separated files.
type TableRepoImpl struct{}

// NewTableRepo creates a new instance of TableRepoImpl.
func NewTableRepo() *TableRepoImpl {
	return &TableRepoImpl{}
}

// ReadTable loads a CSV file. The first record is the header; rows may have
// any number of fields.
func (r *TableRepoImpl) ReadTable(path string) (*entity.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", repository.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrEmptySource, path)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return &entity.Table{Header: header, Rows: records[1:]}, nil
}
