package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/lentono/blockbot/field"
	"github.com/lentono/blockbot/move"
	"github.com/lentono/blockbot/shape"
)

// ErrBadSpawn is returned for a spawn column too far outside the field.
var ErrBadSpawn = errors.New("spawn column out of range")

// WireRequest is a decision request as sent over nats.
type WireRequest struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Field   string `json:"field"`
	Current string `json:"current"`
	Next    string `json:"next"`
	SpawnX  int    `json:"spawn_x"`
	SpawnY  int    `json:"spawn_y"`
}

// WireResponse carries either the moves or an error.
type WireResponse struct {
	Moves     string `json:"moves,omitempty"`
	Placement string `json:"placement,omitempty"`
	Source    string `json:"source,omitempty"`
	Lost      bool   `json:"lost,omitempty"`
	Error     string `json:"error,omitempty"`
}

func errorResponse(message string, err error) *WireResponse {
	return &WireResponse{Error: fmt.Sprintf("%s: %v", message, err)}
}

// ToRequest converts the wire form into an engine request.
func (w *WireRequest) ToRequest() (Request, error) {
	f, err := field.Parse(w.Width, w.Height, w.Field)
	if err != nil {
		return Request{}, err
	}
	if w.SpawnX < -f.Width() || w.SpawnX > f.Width() {
		return Request{}, fmt.Errorf("%w: %d", ErrBadSpawn, w.SpawnX)
	}
	cur, err := shape.ParseKind(w.Current)
	if err != nil {
		return Request{}, err
	}
	next, err := shape.ParseKind(w.Next)
	if err != nil {
		return Request{}, err
	}
	return Request{Field: f, Current: cur, Next: next, SpawnX: w.SpawnX, SpawnY: w.SpawnY}, nil
}

func (e *Engine) handle(data []byte) *WireResponse {
	wr := &WireRequest{}
	if err := json.Unmarshal(data, wr); err != nil {
		return errorResponse("could not parse request", err)
	}
	req, err := wr.ToRequest()
	if err != nil {
		return errorResponse("bad request", err)
	}
	d := e.Decide(req)
	return &WireResponse{
		Moves:     move.FormatActions(d.Actions),
		Placement: d.Placement.ShortDescription(),
		Source:    d.Source.String(),
		Lost:      d.Lost,
	}
}

// Serve answers decision requests on channel until ctx is done.
func Serve(ctx context.Context, url, channel string, engine *Engine) error {
	nc, err := nats.Connect(url)
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Msgf("RECV: %d bytes", len(m.Data))
		data, err := json.Marshal(engine.handle(m.Data))
		if err != nil {
			m.Respond([]byte(err.Error()))
			return
		}
		m.Respond(data)
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", channel)

	<-ctx.Done()
	return nc.Drain()
}

type Client struct {
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

// NewClient connects to a decision server.
func NewClient(url, channel string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, channel: channel, timeout: 10 * time.Second}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

// RequestMoves sends a request to the server and returns the actions it
// chose.
func (c *Client) RequestMoves(ctx context.Context, req *WireRequest) ([]move.Action, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		return nil, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))

	resp := WireResponse{}
	if err := json.Unmarshal(res.Data, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("bot returned: " + resp.Error)
	}
	return move.ParseActions(resp.Moves)
}
