package contract

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelsos/nft-snapshot/internal/utils"
)

// DefaultABI is the minimal ERC-721 fragment this tool needs: the
// read-only ownerOf query.
const DefaultABI = `[{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}]`

// LoadABI resolves an ABI descriptor from its configured source: empty
// falls back to the embedded ERC-721 fragment, http(s) URLs are fetched,
// anything else is read as a file path.
func LoadABI(source string) (string, error) {
	if source == "" {
		return DefaultABI, nil
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err := utils.FetchBytes(source, 30*time.Second)
		if err != nil {
			return "", fmt.Errorf("failed to fetch ABI from %s: %w", source, err)
		}
		return string(body), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read ABI file %s: %w", source, err)
	}
	return string(data), nil
}
