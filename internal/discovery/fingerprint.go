package discovery

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint hashes the ordered found list. Two runs over the same
// filesystem and environment produce the same fingerprint.
func Fingerprint(res *Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("fingerprint: nil result")
	}

	data, err := json.Marshal(res.Found)
	if err != nil {
		return "", fmt.Errorf("marshal toolsets: %w", err)
	}

	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
