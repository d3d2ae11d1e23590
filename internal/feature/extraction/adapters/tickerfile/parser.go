package tickerfile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/feature/extraction/usecase"
)

// symbolColumn is the header of the symbol column in pipe delimited listings.
const symbolColumn = "Symbol"

// Parser reads ticker source files.
type Parser struct{}

var _ usecase.TickerSource = (*Parser)(nil)

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the symbols of the file at path, in file order.
// Duplicates are kept.
func (p *Parser) Parse(fileType entity.TickerFileType, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, entity.Eventf(entity.FileMissing, "ticker file [%s] is missing", path).Wrap(err)
	}

	var (
		symbols []string
		err     error
	)
	switch fileType {
	case entity.TickerFileCustom:
		symbols, err = readPlain(path)
	case entity.TickerFileSP500:
		symbols, err = readTabbed(path)
	case entity.TickerFileNasdaq:
		symbols, err = readPiped(path)
	default:
		return nil, entity.Eventf(entity.FileNotFetched, "ticker file type %s is not supported", fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(symbols) == 0 {
		return nil, entity.Eventf(entity.FileEmpty, "file [%s] is empty", path)
	}
	return symbols, nil
}

// readPlain reads one symbol per line, trimming blanks.
func readPlain(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, entity.Eventf(entity.FileMissing, "open %s", path).Wrap(err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			out = append(out, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, entity.Eventf(entity.ResponseFormat, "read %s", path).Wrap(err)
	}
	return out, nil
}

// readTabbed reads a headerless {symbol, name, sector} listing.
func readTabbed(path string) ([]string, error) {
	rows, err := readDelimited(path, '\t')
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if s := strings.TrimSpace(row[0]); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// readPiped reads an exchange listing: a header row naming the columns,
// data rows, and a trailing "File Creation Time" row that is dropped.
func readPiped(path string) ([]string, error) {
	rows, err := readDelimited(path, '|')
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == symbolColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, entity.Eventf(entity.ResponseFormat, "file [%s] has no %s column", path, symbolColumn)
	}

	data := rows[1:]
	if len(data) > 0 {
		data = data[:len(data)-1]
	}

	out := make([]string, 0, len(data))
	for _, row := range data {
		if col >= len(row) {
			continue
		}
		if s := strings.TrimSpace(row[col]); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, entity.Eventf(entity.FileMissing, "open %s", path).Wrap(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, entity.Eventf(entity.ResponseFormat, "parse %s", path).Wrap(err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
