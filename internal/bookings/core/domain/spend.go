package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SpendRecord is one row of the daily ad-spend feed.
type SpendRecord struct {
	Channel string      `json:"channel"`
	Date    string      `json:"date"`
	Spend   SpendAmount `json:"spend"`
}

// SpendAmount accepts a JSON number or a numeric string.
type SpendAmount float64

func (a *SpendAmount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*a = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("spend amount %s: %w", string(b), err)
	}
	*a = SpendAmount(f)
	return nil
}

// DecodeSpendDocument reads a spend document in record orientation
// ([{"channel":..,"date":..,"spend":..}]) or column orientation
// ({"channel":[..],"date":[..],"spend":[..]}).
func DecodeSpendDocument(b []byte) ([]SpendRecord, error) {
	var records []SpendRecord
	recErr := json.Unmarshal(b, &records)
	if recErr == nil {
		return records, nil
	}

	var cols struct {
		Channel []string      `json:"channel"`
		Date    []string      `json:"date"`
		Spend   []SpendAmount `json:"spend"`
	}
	if err := json.Unmarshal(b, &cols); err != nil {
		return nil, fmt.Errorf("decode spend document: %w", recErr)
	}
	if len(cols.Channel) != len(cols.Date) || len(cols.Channel) != len(cols.Spend) {
		return nil, fmt.Errorf("decode spend document: column lengths differ (%d/%d/%d)",
			len(cols.Channel), len(cols.Date), len(cols.Spend))
	}
	records = make([]SpendRecord, len(cols.Channel))
	for i := range cols.Channel {
		records[i] = SpendRecord{Channel: cols.Channel[i], Date: cols.Date[i], Spend: cols.Spend[i]}
	}
	return records, nil
}
