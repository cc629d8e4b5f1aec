package engine

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"calculator/internal/models"
)

var ErrRemoteClosed = errors.New("remote model closed")

const remoteTimeout = 5 * time.Second

// RemoteModel forwards tensors to an inference server over a websocket.
// A broken connection is dropped and redialed on the next Predict.
type RemoteModel struct {
	serverURL string
	dialer    *websocket.Dialer
	log       *log.Entry

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewRemoteModel targets ws://host/ws. A nil entry logs through the
// standard logger.
func NewRemoteModel(host string, entry *log.Entry) *RemoteModel {
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}

	return &RemoteModel{
		serverURL: u.String(),
		dialer:    &websocket.Dialer{HandshakeTimeout: remoteTimeout},
		log:       entry.WithField("url", u.String()),
	}
}

// Connect dials the server if there is no live connection.
func (r *RemoteModel) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectLocked()
}

func (r *RemoteModel) connectLocked() error {
	if r.closed {
		return ErrRemoteClosed
	}
	if r.conn != nil {
		return nil
	}

	r.log.Debug("[Remote] connecting to inference server")
	conn, _, err := r.dialer.Dial(r.serverURL, nil)
	if err != nil {
		return errors.Wrapf(err, "dial %s", r.serverURL)
	}

	r.conn = conn
	return nil
}

func (r *RemoteModel) Predict(t models.Tensor) (models.Scores, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.connectLocked(); err != nil {
		return nil, err
	}

	r.conn.SetWriteDeadline(time.Now().Add(remoteTimeout))
	if err := r.conn.WriteMessage(websocket.BinaryMessage, t.Bytes()); err != nil {
		r.dropLocked()
		return nil, errors.Wrap(err, "send tensor")
	}

	r.conn.SetReadDeadline(time.Now().Add(remoteTimeout))
	_, message, err := r.conn.ReadMessage()
	if err != nil {
		r.dropLocked()
		return nil, errors.Wrap(err, "read scores")
	}

	var reply models.ScoreReply
	if err := json.Unmarshal(message, &reply); err != nil {
		return nil, errors.Wrap(err, "decode scores")
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	if err := reply.Scores.Validate(); err != nil {
		return nil, err
	}

	return reply.Scores, nil
}

func (r *RemoteModel) dropLocked() {
	if r.conn != nil {
		r.log.Warn("[Remote] connection lost, redialing on next request")
		r.conn.Close()
		r.conn = nil
	}
}

func (r *RemoteModel) Info() models.ModelInfo {
	return models.ModelInfo{
		Engine: "remote",
		Source: r.serverURL,
		Inputs: models.TensorSize,
		Labels: models.NumClasses,
	}
}

func (r *RemoteModel) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.conn == nil {
		return nil
	}
	r.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := r.conn.Close()
	r.conn = nil
	return err
}
