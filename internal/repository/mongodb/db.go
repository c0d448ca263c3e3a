package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"cbt-server/internal/config"
)

// State is the explicit connection lifecycle of the document store. The
// process keeps serving in StateDegraded; store-dependent routes fail at
// call time and the health endpoint reports 503.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDegraded:
		return "degraded"
	default:
		return "disconnected"
	}
}

// Health is the store view exposed by the health-check endpoint.
type Health struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Host      string `json:"host"`
	Name      string `json:"name"`
}

// Connector owns the mongo client and its lifecycle state.
type Connector struct {
	client *mongo.Client
	db     *mongo.Database
	state  atomic.Int32
	host   string
	name   string
	logger *logrus.Logger
}

// NewConnector prepares a connector for the configured URI without dialing.
func NewConnector(cfg config.Config, logger *logrus.Logger) *Connector {
	host, name := parseTarget(cfg.Database.URI)
	return &Connector{
		host:   host,
		name:   name,
		logger: logger,
	}
}

// Connect dials and pings the store. On failure it logs heuristic diagnostics,
// leaves the connector in StateDegraded and returns the error; the caller
// decides whether that is fatal (it is not, per the degraded-startup policy).
func (c *Connector) Connect(ctx context.Context, cfg config.Config) error {
	c.state.Store(int32(StateConnecting))
	c.logger.Infof("connecting to mongodb at %s", c.host)

	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetMaxPoolSize(cfg.Database.MaxPoolSize).
		SetConnectTimeout(cfg.Database.ConnectTimeout).
		SetSocketTimeout(cfg.Database.SocketTimeout).
		SetServerSelectionTimeout(cfg.Database.ServerSelectionTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		c.degrade(err)
		return fmt.Errorf("connect mongodb: %w", err)
	}
	c.client = client
	c.db = client.Database(c.name)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		c.degrade(err)
		return fmt.Errorf("ping mongodb: %w", err)
	}

	c.state.Store(int32(StateConnected))
	c.logger.Infof("mongodb connected (host %s, database %s)", c.host, c.name)
	return nil
}

// Disconnect releases the client if one was established.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.state.Store(int32(StateDisconnected))
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

// State reports the current lifecycle state.
func (c *Connector) State() State {
	return State(c.state.Load())
}

// Health snapshots the connection for the health endpoint.
func (c *Connector) Health() Health {
	st := c.State()
	return Health{
		Connected: st == StateConnected,
		State:     st.String(),
		Host:      c.host,
		Name:      c.name,
	}
}

// Collection resolves a collection handle, erroring while degraded without a
// usable client.
func (c *Connector) Collection(name string) (*mongo.Collection, error) {
	if c.db == nil {
		return nil, fmt.Errorf("document store unavailable (state %s)", c.State())
	}
	return c.db.Collection(name), nil
}

func (c *Connector) degrade(err error) {
	c.state.Store(int32(StateDegraded))
	c.logger.Errorf("mongodb connection failed: %v", err)

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "ip") || strings.Contains(msg, "whitelist"):
		c.logger.Warn("connection refused by the cluster: check the Atlas network access list for this host's IP")
	case strings.Contains(msg, "auth"):
		c.logger.Warn("authentication rejected: check the MongoDB username and password in MONGODB_URI")
	case strings.Contains(msg, "timeout"):
		c.logger.Warn("connection timed out: check network reachability and the MONGODB_URI host")
	}
	c.logger.Warn("continuing without a database connection; store-backed routes will fail until connectivity returns")
}

// parseTarget extracts the first host and the database name from a mongodb://
// or mongodb+srv:// URI. Falls back to the raw string on parse failure.
func parseTarget(uri string) (host, name string) {
	host, name = "unknown", "cbt"
	parsed, err := url.Parse(uri)
	if err != nil {
		return host, name
	}
	if parsed.Host != "" {
		host = strings.Split(parsed.Host, ",")[0]
	}
	if dbName := strings.Trim(parsed.Path, "/"); dbName != "" {
		name = dbName
	}
	return host, name
}
