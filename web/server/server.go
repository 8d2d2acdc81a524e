package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	mathpkg "github.com/natepfeffer/go-scene-raytracer/pkg/math"
	"github.com/natepfeffer/go-scene-raytracer/pkg/renderer"
	"github.com/natepfeffer/go-scene-raytracer/pkg/scene"
)

// Server exposes the raytracer over HTTP. Each client session owns an
// engine whose camera survives across frames, so camera operations
// compose the way they would in a local viewer.
type Server struct {
	port   int
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id     string
	engine *renderer.Engine

	// serializes camera mutations and frames within one session
	mu sync.Mutex
}

// NewServer creates a web server listening on the given port
func NewServer(port int, logger *log.Logger) *Server {
	return &Server{
		port:     port,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// FrameUpdate is one rendered frame sent via SSE
type FrameUpdate struct {
	SessionID string `json:"sessionId"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Objects   int    `json:"objects"`
	Lights    int    `json:"lights"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Start registers the handlers and blocks serving HTTP
func (s *Server) Start() error {
	http.Handle("/", http.FileServer(http.Dir("static/")))

	http.HandleFunc("/api/health", s.handleHealth)
	http.HandleFunc("/api/session", s.handleNewSession)
	http.HandleFunc("/api/render", s.handleRender)
	http.HandleFunc("/api/camera", s.handleCamera)

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleNewSession creates a session rendering the requested scene and
// returns its id
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	width, err := parseIntParam(query, "width", 400, 64, 2000)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := parseIntParam(query, "height", 300, 64, 2000)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj := createScene(sceneName)
	if sceneObj == nil {
		writeJSONError(w, http.StatusBadRequest, "Unknown scene: "+sceneName)
		return
	}

	engine := renderer.NewEngine(width, height, 0, s.logger, nil)
	if err := engine.LoadScene(sceneObj, 4); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Loading scene: %v", err))
		return
	}

	sess := &session{id: uuid.NewString(), engine: engine}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Infof("session %s: scene %q at %dx%d", sess.id, sceneName, width, height)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"sessionId": sess.id})
}

func (s *Server) lookupSession(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// handleRender renders one frame for a session and streams it via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sess := s.lookupSession(r.URL.Query().Get("session"))
	if sess == nil {
		s.sendSSEError(w, "Unknown session")
		return
	}

	if err := s.renderAndSend(w, sess); err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}
	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// handleCamera applies one camera operation to a session and streams the
// resulting frame. Operations mirror the interactive viewer: translate in
// camera space, rotate about the eye, orbit a pivot, or re-orient.
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	sess := s.lookupSession(query.Get("session"))
	if sess == nil {
		s.sendSSEError(w, "Unknown session")
		return
	}

	if err := applyCameraOp(sess, query); err != nil {
		s.sendSSEError(w, fmt.Sprintf("Camera error: %v", err))
		return
	}

	if err := s.renderAndSend(w, sess); err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}
	s.sendSSEEvent(w, "complete", "Rendering completed")
}

func applyCameraOp(sess *session, query url.Values) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	camera := sess.engine.Camera()
	op := query.Get("op")
	switch op {
	case "translate":
		v, err := parseVec3Param(query, "v")
		if err != nil {
			return err
		}
		camera.Translate(v)
	case "rotate":
		axis, err := parseVec3Param(query, "axis")
		if err != nil {
			return err
		}
		angle, err := parseFloatParam(query, "angle", 0, -360, 360)
		if err != nil {
			return err
		}
		camera.Rotate(camera.Eye(), axis, angle)
	case "orbit":
		pivot, err := parseVec3Param(query, "pivot")
		if err != nil {
			return err
		}
		axis, err := parseVec3Param(query, "axis")
		if err != nil {
			return err
		}
		angle, err := parseFloatParam(query, "angle", 0, -360, 360)
		if err != nil {
			return err
		}
		camera.Rotate(pivot, axis, angle)
	case "lookat":
		eye, err := parseVec3Param(query, "eye")
		if err != nil {
			return err
		}
		focus, err := parseVec3Param(query, "focus")
		if err != nil {
			return err
		}
		up, err := parseVec3Param(query, "up")
		if err != nil {
			return err
		}
		camera.OrientLookAt(eye, focus, up)
	default:
		return fmt.Errorf("unknown camera op %q", op)
	}
	return nil
}

// renderAndSend renders one frame under the session lock and streams it
func (s *Server) renderAndSend(w http.ResponseWriter, sess *session) error {
	sess.mu.Lock()
	startTime := time.Now()
	img, stats, err := sess.engine.RenderFrame()
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return fmt.Errorf("failed to encode image: %v", err)
	}

	return s.sendSSEUpdate(w, FrameUpdate{
		SessionID: sess.id,
		ImageData: imageData,
		Objects:   stats.Objects,
		Lights:    stats.Lights,
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// createScene creates a scene based on the scene name
func createScene(sceneName string) *scene.Scene {
	switch sceneName {
	case "default":
		return scene.NewDefaultScene()
	case "instanced":
		return scene.NewInstancedScene()
	default:
		return nil
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseVec3Param parses a comma-separated "x,y,z" query parameter
func parseVec3Param(values url.Values, key string) (mathpkg.Vec3, error) {
	value := values.Get(key)
	if value == "" {
		return mathpkg.Vec3{}, fmt.Errorf("missing %s", key)
	}
	var x, y, z float64
	if _, err := fmt.Sscanf(value, "%f,%f,%f", &x, &y, &z); err != nil {
		return mathpkg.Vec3{}, fmt.Errorf("invalid %s: %s", key, value)
	}
	return mathpkg.NewVec3(x, y, z), nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEUpdate sends a frame update via SSE
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update FrameUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "frame", string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
