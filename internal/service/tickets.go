package service

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadTicketCodes reads the pre-provisioned booking-code pool, a JSON
// array of strings.  A missing file is not an error; the allocator then
// generates random codes only.  A present but unreadable file is an error
// so a typo'd path does not silently disable the pool.
func LoadTicketCodes(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ticket codes: %w", err)
	}
	var codes []string
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, fmt.Errorf("ticket codes: decode %s: %w", path, err)
	}
	return codes, nil
}
