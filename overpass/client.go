package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"github.com/sirupsen/logrus"

	"github.com/kartwerk/riverlabel/util"
)

type Client struct {
	logger     *logrus.Logger
	config     Config
	httpClient *http.Client
	retryDelay time.Duration
}

func (cli *Client) doSingleQuery(ctx context.Context, v url.Values) (*osm.OSM, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cli.config.Url, strings.NewReader(v.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := cli.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		if err := matchBodyAgainstErrors(respBytes); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("received status code %d: body: %s", resp.StatusCode, string(respBytes))
	}

	var osmData osm.OSM
	if err := json.Unmarshal(respBytes, &osmData); err != nil {
		if nerr := matchBodyAgainstErrors(respBytes); nerr != nil {
			return nil, nerr
		}
		return nil, err
	}

	return &osmData, nil
}

func (cli *Client) fuzzBound(bound orb.Bound) string {
	if cli.config.FuzzMeters > 0 {
		bound = geo.BoundPad(bound, float64(rand.Intn(cli.config.FuzzMeters)))
	}
	return bboxString(bound)
}

// GetWaterAreas queries overpass for river water areas within the bound
// (lon/lat). If name is not empty, only features with that exact name are
// returned.
func (cli *Client) GetWaterAreas(ctx context.Context, bound orb.Bound, name string) (*osm.OSM, error) {
	query := func() url.Values {
		return url.Values{
			"data": {buildWaterAreaQuery(cli.fuzzBound(bound), name, cli.config.TimeoutSeconds)},
		}
	}

	urlValues := query()
	triesLeft := DEFAULT_MAX_DUPE_TRIES

	for {
		osmData, err := cli.doSingleQuery(ctx, urlValues)
		if err == nil {
			return osmData, nil
		}

		switch {
		case errors.Is(err, errTimeout), errors.Is(err, errRateLimited):
			cli.logger.Warnf("OVERPASS: received '%v'. sleeping %s.", err, cli.retryDelay)
			if err := util.SleepContext(ctx, cli.retryDelay); err != nil {
				return nil, err
			}
		case errors.Is(err, errDupeQuery):
			if triesLeft <= 0 {
				return nil, err
			}
			cli.logger.Debugf("OVERPASS: duplicate query, adjusting bbox")
			urlValues = query()
			triesLeft--
		default:
			return nil, err
		}
	}
}

func NewClient(logger *logrus.Logger, config Config) (*Client, error) {
	if logger == nil {
		return nil, errors.New("No logger given")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		logger: logger,
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds+30) * time.Second,
		},
		retryDelay: time.Second,
	}, nil
}
