// Package preview отдаёт состояние сессии и последние кадры по HTTP и принимает команды.
package preview

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/infrastructure/vision"
)

const signalQueueSize = 8

var signalNames = map[string]entity.Signal{
	"background": entity.SignalCaptureBackground,
	"color":      entity.SignalCaptureColor,
	"exit":       entity.SignalExit,
}

// Server HTTP-предпросмотр: хранит последний кадр каждого окна.
type Server struct {
	addr   string
	engine *gin.Engine

	mu     sync.RWMutex
	frames map[string]entity.Frame
	status port.StatusProvider

	signals chan entity.Signal
}

// NewServer создаёт сервер; слушать адрес он начинает в Run.
func NewServer(addr string) *Server {
	s := &Server{
		addr:    addr,
		frames:  make(map[string]entity.Frame),
		signals: make(chan entity.Signal, signalQueueSize),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/status", s.getStatus)
	engine.GET("/frames/:window", s.getFrame)
	engine.POST("/signals/:name", s.postSignal)
	s.engine = engine

	return s
}

// Bind подключает источник состояния сессии.
func (s *Server) Bind(status port.StatusProvider) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Handler возвращает маршруты сервера.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run слушает адрес до отмены контекста.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down preview server: %v", err)
		}
	}()

	log.Printf("Preview server listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Show запоминает последний кадр окна.
func (s *Server) Show(window string, frame entity.Frame) {
	s.mu.Lock()
	s.frames[window] = frame
	s.mu.Unlock()
}

// Close ничего не освобождает: сервер живёт до отмены контекста Run.
func (s *Server) Close() error {
	return nil
}

// Poll отдаёт очередную команду, полученную по HTTP.
func (s *Server) Poll() entity.Signal {
	select {
	case sig := <-s.signals:
		return sig
	default:
		return entity.SignalContinue
	}
}

func (s *Server) getStatus(c *gin.Context) {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	if status == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session not started"})
		return
	}
	c.JSON(http.StatusOK, status.Status())
}

func (s *Server) getFrame(c *gin.Context) {
	window := c.Param("window")

	s.mu.RLock()
	frame, ok := s.frames[window]
	s.mu.RUnlock()

	if !ok || frame.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame for window " + window})
		return
	}

	data, err := vision.EncodeSnapshot(frame, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", data)
}

func (s *Server) postSignal(c *gin.Context) {
	name := c.Param("name")
	sig, ok := signalNames[name]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown signal " + name})
		return
	}

	select {
	case s.signals <- sig:
		c.JSON(http.StatusAccepted, gin.H{"signal": sig.String()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "signal queue is full"})
	}
}

var (
	_ port.DisplaySink  = (*Server)(nil)
	_ port.SignalSource = (*Server)(nil)
)
