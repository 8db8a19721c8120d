package geo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column positions of the geonames postal code export
const (
	columnPostalCode = 1
	columnLatitude   = 9
	columnLongitude  = 10
	columnCount      = 12
)

// PostalCodes maps a numeric postal code to its location
type PostalCodes map[int]Point

// LoadPostalCodes reads a geonames postal code file, for example NL.txt from
// https://download.geonames.org/export/zip/
func LoadPostalCodes(path string) (PostalCodes, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("unable to open postal codes: %w", err)
	}
	defer file.Close()

	return ReadPostalCodes(file)
}

// ReadPostalCodes parses tab separated geonames rows. Only the first location of a postal code is kept,
// rows with a postal code that is not numeric are skipped.
func ReadPostalCodes(r io.Reader) (PostalCodes, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = columnCount
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	result := make(PostalCodes)
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("postal codes line %d: %w", line, err)
		}

		code, err := strconv.Atoi(strings.TrimSpace(record[columnPostalCode]))
		if err != nil {
			continue
		}
		if _, ok := result[code]; ok {
			continue
		}

		latitude, err := strconv.ParseFloat(strings.TrimSpace(record[columnLatitude]), 64)
		if err != nil {
			return nil, fmt.Errorf("postal codes line %d: invalid latitude: %w", line, err)
		}
		longitude, err := strconv.ParseFloat(strings.TrimSpace(record[columnLongitude]), 64)
		if err != nil {
			return nil, fmt.Errorf("postal codes line %d: invalid longitude: %w", line, err)
		}
		result[code] = Point{Latitude: latitude, Longitude: longitude}
	}

	return result, nil
}
