// Package routing calls the external routing service that supplies road
// distance and duration matrices, grounded on the OSRM table-endpoint client
// pattern: batched source/destination point lists resolved into dense
// matrices, with unresolved cells reported as NaN rather than failing the
// whole request.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"facilityassign/pkg/apperror"
)

// Point is a [lng, lat] pair, matching the convention used throughout the
// geometry and model packages.
type Point [2]float64

// Client requests distance/duration tables from the configured routing
// service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	batchSize  int
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBatchSize sets the maximum number of sources and the maximum number of
// destinations sent per table request; larger point sets are chunked, so one
// request carries up to twice this many points.
func WithBatchSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.batchSize = size
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts per batch.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// NewClient builds a routing service Client against baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		batchSize:  100,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tableResponse mirrors the routing service's table response: dense matrices
// with NaN-producing nulls for unresolved source/destination pairs.
type tableResponse struct {
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	Distances [][]*float64  `json:"distances"`
	Durations [][]*float64  `json:"durations"`
}

// Table requests distance (meters) and duration (seconds) matrices between
// sources and destinations. Unresolved cells are NaN. The request is chunked
// by the configured batch size along both axes and the results stitched back
// into dense matrices of shape len(sources) x len(destinations).
func (c *Client) Table(ctx context.Context, sources, destinations []Point) (distances, durations [][]float64, err error) {
	if len(sources) == 0 || len(destinations) == 0 {
		return nil, nil, apperror.New(apperror.CodeRoutingUnavailable, "routing table requires non-empty sources and destinations")
	}

	distances = allocMatrix(len(sources), len(destinations))
	durations = allocMatrix(len(sources), len(destinations))

	srcChunks := chunkPoints(sources, c.batchSize)
	dstChunks := chunkPoints(destinations, c.batchSize)

	srcOffset := 0
	for _, srcChunk := range srcChunks {
		dstOffset := 0
		for _, dstChunk := range dstChunks {
			d, t, err := c.tableChunk(ctx, srcChunk, dstChunk)
			if err != nil {
				return nil, nil, err
			}
			for i := range d {
				copy(distances[srcOffset+i][dstOffset:dstOffset+len(d[i])], d[i])
				copy(durations[srcOffset+i][dstOffset:dstOffset+len(t[i])], t[i])
			}
			dstOffset += len(dstChunk)
		}
		srcOffset += len(srcChunk)
	}

	return distances, durations, nil
}

func (c *Client) tableChunk(ctx context.Context, sources, destinations []Point) (distances, durations [][]float64, err error) {
	all := append(append([]Point{}, sources...), destinations...)

	srcIdx := make([]string, len(sources))
	for i := range sources {
		srcIdx[i] = strconv.Itoa(i)
	}
	dstIdx := make([]string, len(destinations))
	for i := range destinations {
		dstIdx[i] = strconv.Itoa(len(sources) + i)
	}

	coords := make([]string, len(all))
	for i, p := range all {
		coords[i] = fmt.Sprintf("%f,%f", p[0], p[1])
	}

	q := url.Values{}
	q.Set("sources", strings.Join(srcIdx, ";"))
	q.Set("destinations", strings.Join(dstIdx, ";"))
	q.Set("annotations", "distance,duration")

	path := fmt.Sprintf("%s/table/v1/driving/%s?%s", c.baseURL, strings.Join(coords, ";"), q.Encode())

	var resp tableResponse
	attempt := 0
	for {
		resp, err = c.get(ctx, path)
		if err == nil {
			break
		}
		attempt++
		if attempt > c.maxRetries {
			return nil, nil, apperror.Wrap(err, apperror.CodeRoutingUnavailable, "routing service request failed")
		}
	}

	if resp.Code != "" && resp.Code != "Ok" {
		return nil, nil, apperror.New(apperror.CodeRoutingUnavailable,
			fmt.Sprintf("routing service returned %q: %s", resp.Code, resp.Message))
	}

	distances = matrixOrNaN(resp.Distances, len(sources), len(destinations))
	durations = matrixOrNaN(resp.Durations, len(sources), len(destinations))
	return distances, durations, nil
}

func (c *Client) get(ctx context.Context, path string) (tableResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return tableResponse{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tableResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tableResponse{}, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var out tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return tableResponse{}, err
	}
	return out, nil
}

func matrixOrNaN(raw [][]*float64, rows, cols int) [][]float64 {
	m := allocMatrix(rows, cols)
	for i := range m {
		for j := range m[i] {
			m[i][j] = math.NaN()
		}
	}
	for i := 0; i < rows && i < len(raw); i++ {
		for j := 0; j < cols && j < len(raw[i]); j++ {
			if raw[i][j] == nil {
				m[i][j] = math.NaN()
			} else {
				m[i][j] = *raw[i][j]
			}
		}
	}
	return m
}

func allocMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func chunkPoints(points []Point, size int) [][]Point {
	if size <= 0 {
		size = len(points)
	}
	var chunks [][]Point
	for size < len(points) {
		points, chunks = points[size:], append(chunks, points[0:size:size])
	}
	return append(chunks, points)
}
