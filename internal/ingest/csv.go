package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lapazlabs/centavo/internal/model"
)

// CSV column layout: date, amount, category, description. A header row
// starting with "date" is skipped. Category may be empty for unlabeled
// data.
const csvColumns = 4

// ParseCSV reads training transactions from a CSV document.
func ParseCSV(reader io.Reader) ([]model.Transaction, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = csvColumns
	r.TrimLeadingSpace = true

	var txns []model.Transaction
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "date") {
			continue
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q: %w", line, record[0], err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, record[1], err)
		}
		if amount < 0 {
			amount = -amount
		}

		tx := model.Transaction{
			Date:        date,
			Amount:      amount,
			Category:    strings.TrimSpace(record[2]),
			Description: strings.TrimSpace(record[3]),
		}
		tx.Hash = tx.GenerateHash()
		txns = append(txns, tx)
	}

	if len(txns) == 0 {
		return nil, fmt.Errorf("no transactions found in CSV")
	}
	return txns, nil
}
