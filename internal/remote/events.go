package remote

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/meetlogapp/meetlog-server/internal/errors"
)

// ListEvents fetches one page of the owner's events from the listing
// service. page is 1-based; pageSize is clamped to the service maximum.
// Input positivity is the caller's responsibility.
func (c *Client) ListEvents(ctx context.Context, ownerID string, page, pageSize int, order Order) ([]EventRecord, error) {
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if !order.Valid() {
		order = OrderDesc
	}

	query := url.Values{}
	query.Set("owner", ownerID)
	query.Set("count", strconv.Itoa(pageSize))
	query.Set("offset", strconv.Itoa((page-1)*pageSize))
	query.Set("order", string(order))

	body, err := c.doRequest(ctx, "/resources", query)
	if err != nil {
		return nil, err
	}

	var records []EventRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, errors.Decode("malformed listing payload").WithCause(err)
	}

	c.logger.Debug("listed events", "owner", ownerID, "page", page, "count", len(records))
	return records, nil
}

// GetEvent fetches a single event by its external key.
// Returns a NotFound error if the service has no such event.
func (c *Client) GetEvent(ctx context.Context, eventKey int64) (*EventRecord, error) {
	body, err := c.doRequest(ctx, "/resources/"+strconv.FormatInt(eventKey, 10), nil)
	if err != nil {
		return nil, err
	}

	var record EventRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, errors.Decode("malformed event payload").WithCause(err)
	}
	return &record, nil
}
