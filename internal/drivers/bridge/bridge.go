/*
Package bridge talks to a USB or network CAN bridge that exposes motor
controllers through a line oriented ASCII protocol.

Every request is a single line terminated by a carriage return:

	SET <can id> <key> <value>   ->  OK
	GET <can id> <key>           ->  <value>

Any request may instead be answered with "ERR <message>". Values are decimal
floats. A Bridge serializes requests, so one Bridge may be shared by every
motor on the bus.

Each request must complete within Config.Timeout. A request that times out
or fails on the wire drops the connection, so a late reply is never read as
the answer to the next request; the next request dials again.
*/
package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

const terminator = '\r'

var (
	// ErrNotConnected is returned when a request is made before Open.
	ErrNotConnected = errors.New("bridge: not connected")

	// ErrRemote wraps an ERR response from the bridge.
	ErrRemote = errors.New("bridge: remote error")

	// ErrMalformed indicates a response that could not be parsed.
	ErrMalformed = errors.New("bridge: malformed response")

	// ErrTimeout is returned when the bridge does not answer within the
	// configured timeout.
	ErrTimeout = errors.New("bridge: request timed out")
)

// Config locates a bridge. Addr is a serial device path when Serial is true,
// otherwise a host:port.
type Config struct {
	Addr    string        `yaml:"addr"`
	Serial  bool          `yaml:"serial"`
	Baud    int           `yaml:"baud"`
	Timeout time.Duration `yaml:"timeout"`
}

type Bridge struct {
	cfg Config

	mu       sync.Mutex
	conn     io.ReadWriteCloser
	rd       *bufio.Reader
	deadline time.Time
}

// deadlineReader turns the empty reads of a timed out serial port into
// ErrTimeout once the request deadline has passed.
type deadlineReader struct {
	b *Bridge
	r io.Reader
}

func (d deadlineReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n == 0 && err == nil && !d.b.deadline.IsZero() && time.Now().After(d.b.deadline) {
		return 0, ErrTimeout
	}
	return n, err
}

func New(cfg Config) *Bridge {
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	return &Bridge{cfg: cfg}
}

// NewWithConn wraps an already open connection.
func NewWithConn(conn io.ReadWriteCloser) *Bridge {
	b := New(Config{})
	b.setConn(conn)
	return b
}

func (b *Bridge) setConn(conn io.ReadWriteCloser) {
	b.conn = conn
	b.rd = bufio.NewReader(deadlineReader{b: b, r: conn})
}

// drop closes a connection whose request/response pairing can no longer be
// trusted.
func (b *Bridge) drop(cause error) {
	if b.conn == nil {
		return
	}
	log.WithField("addr", b.cfg.Addr).WithError(cause).Warn("bridge connection dropped")
	b.conn.Close()
	b.conn = nil
	b.rd = nil
}

// Open connects to the bridge, retrying with exponential backoff for a few
// seconds while the device enumerates.
func (b *Bridge) Open() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	op := func() error {
		conn, err := b.dial(3 * time.Second)
		if err != nil {
			log.WithField("addr", b.cfg.Addr).WithError(err).Debug("bridge connect failed, retrying")
			return err
		}
		b.setConn(conn)
		return nil
	}

	err := backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      3 * time.Second,
		Clock:               backoff.SystemClock})
	if err != nil {
		return fmt.Errorf("bridge %s: %w", b.cfg.Addr, err)
	}
	log.WithField("addr", b.cfg.Addr).Info("bridge connected")
	return nil
}

func (b *Bridge) dial(timeout time.Duration) (io.ReadWriteCloser, error) {
	if b.cfg.Serial {
		return serial.OpenPort(&serial.Config{
			Name:        b.cfg.Addr,
			Baud:        b.cfg.Baud,
			ReadTimeout: b.cfg.Timeout,
		})
	}
	return net.DialTimeout("tcp", b.cfg.Addr, timeout)
}

func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	b.rd = nil
	return err
}

// SendRecv writes one request line and reads one response line. A dropped
// connection is dialed again once, within the request timeout.
func (b *Bridge) SendRecv(req string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		if b.cfg.Addr == "" {
			return "", ErrNotConnected
		}
		conn, err := b.dial(b.cfg.Timeout)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNotConnected, err)
		}
		b.setConn(conn)
		log.WithField("addr", b.cfg.Addr).Info("bridge reconnected")
	}

	b.deadline = time.Now().Add(b.cfg.Timeout)
	defer func() { b.deadline = time.Time{} }()
	if nc, ok := b.conn.(interface{ SetDeadline(time.Time) error }); ok {
		if err := nc.SetDeadline(b.deadline); err != nil {
			b.drop(err)
			return "", err
		}
	}

	if _, err := io.WriteString(b.conn, req+string(terminator)); err != nil {
		err = timeoutError(err)
		b.drop(err)
		return "", err
	}
	resp, err := b.rd.ReadString(terminator)
	if err != nil {
		err = timeoutError(err)
		b.drop(err)
		return "", err
	}
	resp = strings.TrimSpace(resp)
	if msg, ok := strings.CutPrefix(resp, "ERR"); ok {
		return "", fmt.Errorf("%w: %s", ErrRemote, strings.TrimSpace(msg))
	}
	return resp, nil
}

func timeoutError(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// Set writes a value to a motor controller register.
func (b *Bridge) Set(id int, key string, value float64) error {
	resp, err := b.SendRecv(fmt.Sprintf("SET %d %s %s", id, key, strconv.FormatFloat(value, 'g', -1, 64)))
	if err != nil {
		return err
	}
	if resp != "OK" {
		return fmt.Errorf("%w: %q", ErrMalformed, resp)
	}
	return nil
}

// Get reads a value from a motor controller register.
func (b *Bridge) Get(id int, key string) (float64, error) {
	resp, err := b.SendRecv(fmt.Sprintf("GET %d %s", id, key))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(resp, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, resp)
	}
	return v, nil
}
