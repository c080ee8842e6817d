// Package audit provides the mutation journal for tempus.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
)

// Journal writes one line per store mutation to the companion log.
type Journal struct {
	logger *log.Logger
}

// NewJournal creates a journal writing through logger. A nil logger uses the
// standard logger.
func NewJournal(logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.Default()
	}
	return &Journal{logger: logger}
}

// Record writes a journal entry for a state-mutating action.
func (j *Journal) Record(action, taskID string, inputs interface{}, details string) {
	if j == nil {
		return
	}
	if details != "" {
		j.logger.Printf("INFO %s task=%s inputs=%s %s", action, taskID, hashInputs(inputs), details)
		return
	}
	j.logger.Printf("INFO %s task=%s inputs=%s", action, taskID, hashInputs(inputs))
}

// hashInputs fingerprints the inputs so identical requests can be matched
// in the log without repeating free text.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])[:12]
}
