package server

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"calculator/internal/calc"
	"calculator/internal/logging"
	"calculator/internal/models"
	"calculator/processing/engine"
	"calculator/processing/recognizer"
)

const maxUploadSize = 4 << 20

type evaluateRequest struct {
	Expression string `json:"expression" binding:"required"`
}

// Server exposes a loaded model to remote clients and scripts.
type Server struct {
	model engine.LoadResult
	rec   *recognizer.Recognizer
	log   *log.Entry

	upgrader websocket.Upgrader
}

func New(model engine.LoadResult, entry *log.Entry) *Server {
	s := &Server{model: model, log: entry}
	if model.Ready() {
		s.rec = recognizer.New(model.Model)
	}
	return s
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestID())

	router.GET("/ws", s.serveWebsocket)

	v1 := router.Group("/v1")
	v1.GET("/model", s.getModel)
	v1.POST("/predict", s.postPredict)
	v1.POST("/evaluate", s.postEvaluate)

	return router
}

func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("[Server] listening")
	return s.Router().Run(addr)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := logging.NewID()
		c.Set("log", s.log.WithField("request_id", id))
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func entryOf(c *gin.Context) *log.Entry {
	return c.MustGet("log").(*log.Entry)
}

func (s *Server) getModel(c *gin.Context) {
	if s.rec == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": calc.MsgModelNotLoaded})
		return
	}
	c.JSON(http.StatusOK, s.rec.Info())
}

func (s *Server) postPredict(c *gin.Context) {
	entry := entryOf(c)

	if s.rec == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": calc.MsgModelNotLoaded})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image"})
		return
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		entry.WithError(err).Debug("[Predicting] Couldn't decode upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format"})
		return
	}

	res := s.rec.Recognize(recognizer.Fit(img))
	if !res.Ok() {
		logging.Report(entry, res.Err, "[Predicting] Couldn't recognize digit")
		c.JSON(http.StatusInternalServerError, gin.H{"error": calc.MsgRunError + res.Err.Error()})
		return
	}

	entry.WithField("digit", res.Digit).Debug("[Predicting] recognized")
	c.JSON(http.StatusOK, gin.H{"digit": res.Digit, "scores": res.Scores, "uuid": c.Writer.Header().Get("X-Request-Id")})
}

func (s *Server) postEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expression required"})
		return
	}

	out, err := calc.Equals(req.Expression)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}

// serveWebsocket answers each binary tensor message with a ScoreReply.
// Messages on one connection are handled in order.
func (s *Server) serveWebsocket(c *gin.Context) {
	entry := entryOf(c)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		entry.WithError(err).Debug("[Websocket] upgrade failed")
		return
	}
	defer conn.Close()

	entry.Debug("[Websocket] client connected")

	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			entry.WithError(err).Debug("[Websocket] client gone")
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}

		if err := conn.WriteJSON(s.score(msg)); err != nil {
			entry.WithError(err).Debug("[Websocket] write failed")
			return
		}
	}
}

func (s *Server) score(msg []byte) models.ScoreReply {
	if s.rec == nil {
		return models.ScoreReply{Error: calc.MsgModelNotLoaded}
	}

	t, err := models.TensorFromBytes(msg)
	if err != nil {
		return models.ScoreReply{Error: err.Error()}
	}

	res := s.rec.RecognizeTensor(t)
	if !res.Ok() {
		return models.ScoreReply{Error: res.Err.Error()}
	}
	return models.ScoreReply{Scores: res.Scores}
}

// Close releases the served model.
func (s *Server) Close() error {
	return s.model.Close()
}
