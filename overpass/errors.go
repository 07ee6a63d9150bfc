package overpass

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	errTimeout     = errors.New("timeout occurred")
	errDupeQuery   = errors.New("dupe query")
	errRateLimited = errors.New("rate limited")

	readAndIdxBytes     = []byte("Dispatcher_Client::request_read_and_idx::")
	errReadAndIdxTokens = []struct {
		token []byte
		err   error
	}{
		{[]byte("timeout"), errTimeout},
		{[]byte("duplicate_query"), errDupeQuery},
		{[]byte("rate_limited"), errRateLimited},
	}
)

func matchBodyAgainstErrors(body []byte) error {
	idx := bytes.Index(body, readAndIdxBytes)
	if idx < 0 {
		return nil
	}
	rest := body[idx+len(readAndIdxBytes):]
	for _, entry := range errReadAndIdxTokens {
		if bytes.HasPrefix(rest, entry.token) {
			return entry.err
		}
	}
	if end := bytes.IndexAny(rest, " \n<\""); end >= 0 {
		rest = rest[:end]
	}
	return fmt.Errorf("unknown overpass error: %s", string(rest))
}
