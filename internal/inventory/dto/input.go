package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// ReceiveLine is one parsed entry of a received-goods message.
type ReceiveLine struct {
	Name     string
	Quantity int
}

// ParseGoodsList parses an operator message of "Name Quantity" lines into
// receive entries. The quantity is the text after the last space, so item
// names may contain spaces ("Red Bull 0.5 5" is 5 units of "Red Bull 0.5").
// A decimal quantity is truncated to an integer. Malformed lines are
// collected as errors and do not block the lines that parsed.
func ParseGoodsList(text string) ([]ReceiveLine, []string) {
	var lines []ReceiveLine
	var errs []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		i := strings.LastIndexByte(line, ' ')
		if i < 0 {
			errs = append(errs, fmt.Sprintf("invalid line format: %s", line))
			continue
		}

		name := strings.TrimSpace(line[:i])
		qty, err := parseQuantity(line[i+1:])
		if err != nil || qty <= 0 {
			errs = append(errs, fmt.Sprintf("invalid quantity: %s", line))
			continue
		}

		lines = append(lines, ReceiveLine{Name: name, Quantity: qty})
	}

	return lines, errs
}

func parseQuantity(token string) (int, error) {
	if qty, err := strconv.Atoi(token); err == nil {
		return qty, nil
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
