package remote

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/meetlogapp/meetlog-server/internal/errors"
)

// SearchPeople searches the subject directory by nickname.
// start is 1-based; count is clamped to 1..100. This is a stateless
// passthrough with no caching or consistency concerns.
func (c *Client) SearchPeople(ctx context.Context, nickname string, start, count int) ([]PersonRecord, error) {
	if start < 1 {
		start = 1
	}
	if count < 1 {
		count = 1
	}
	if count > maxPageSize {
		count = maxPageSize
	}

	query := url.Values{}
	query.Set("nickname", nickname)
	query.Set("start", strconv.Itoa(start))
	query.Set("count", strconv.Itoa(count))

	body, err := c.doRequest(ctx, "/subjects", query)
	if err != nil {
		return nil, err
	}

	var records []PersonRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, errors.Decode("malformed subject payload").WithCause(err)
	}

	c.logger.Debug("searched people", "query", nickname, "count", len(records))
	return records, nil
}
