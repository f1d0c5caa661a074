// Package preview provides the development preview server: it renders a
// registered component on demand and pushes reload events over a websocket
// when the watcher invalidates a component, so open previews refresh
// themselves as source changes.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/net/html"

	"github.com/facetkit/facet/internal/config"
	"github.com/facetkit/facet/internal/logging"
	"github.com/facetkit/facet/internal/registry"
	"github.com/facetkit/facet/internal/renderer"
)

// Server serves component previews and the live-reload websocket.
type Server struct {
	config   *config.Config
	renderer *renderer.Renderer
	registry *registry.ComponentRegistry
	logger   logging.Logger
	server   *http.Server

	mutex   sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// reloadMessage is pushed to every connected preview when a component is
// invalidated.
type reloadMessage struct {
	Type      string `json:"type"`
	Component string `json:"component"`
}

// NewServer creates a preview server.
func NewServer(cfg *config.Config, rend *renderer.Renderer, reg *registry.ComponentRegistry, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		config:   cfg,
		renderer: rend,
		registry: reg,
		logger:   logger.WithComponent("preview"),
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/component/", s.handleComponent)
	mux.HandleFunc("/ws", s.handleWebSocket)

	addr := fmt.Sprintf("%s:%d", s.config.Preview.Host, s.config.Preview.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	s.logger.Info(ctx, "preview server started", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// NotifyReload pushes a reload event for the component to every connected
// preview. Safe to call from the watcher goroutine.
func (s *Server) NotifyReload(component string) {
	payload, err := json.Marshal(reloadMessage{Type: "reload", Component: component})
	if err != nil {
		return
	}

	s.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, conn := range conns {
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			s.drop(conn)
		}
	}
}

// handleIndex lists registered components with preview links.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	components := s.registry.GetAll()
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>Facet Preview</title></head><body>")
	b.WriteString("<h1>Components</h1><ul>")
	for _, name := range names {
		if components[name].Base {
			continue
		}
		fmt.Fprintf(&b, `<li><a href="/component/%s">%s</a></li>`, name, name)
	}
	b.WriteString("</ul></body></html>")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

// handleComponent renders one component. Variant and format come from the
// query string: /component/Button?variant=phone&format=html
func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/component/")
	if name == "" || strings.ContainsAny(name, "/\\") {
		http.Error(w, "invalid component name", http.StatusBadRequest)
		return
	}
	if _, ok := s.registry.Get(name); !ok {
		http.NotFound(w, r)
		return
	}

	variant := r.URL.Query().Get("variant")
	format := r.URL.Query().Get("format")

	// slot.<name> query params fill the component's declared slots; unfilled
	// slots fall back to their declared defaults.
	slotContent := make(map[string]string)
	for key, values := range r.URL.Query() {
		if slot, ok := strings.CutPrefix(key, "slot."); ok && slot != "" && len(values) > 0 {
			slotContent[slot] = values[0]
		}
	}

	filled, err := s.renderer.FillSlots(r.Context(), name, slotContent)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	var data any
	if len(filled) > 0 {
		data = map[string]any{"Slots": filled}
	}

	output, err := s.renderer.RenderString(r.Context(), name, variant, format, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if format == "" || format == "html" {
		if injected, err := injectReloadScript(output); err == nil {
			output = injected
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	_, _ = w.Write([]byte(output))
}

// handleWebSocket registers a preview client for reload events.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		return
	}

	s.mutex.Lock()
	s.clients[conn] = struct{}{}
	s.mutex.Unlock()

	// Drain the connection until the client goes away.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mutex.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mutex.Unlock()
	if ok {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
}

const reloadScript = `const ws = new WebSocket('ws://' + window.location.host + '/ws');
ws.onmessage = function(event) {
	const message = JSON.parse(event.data);
	if (message.type === 'reload') {
		window.location.reload();
	}
};`

// injectReloadScript appends the live-reload script to the document's body,
// parsing the document rather than splicing strings so fragments and full
// documents both work.
func injectReloadScript(document string) (string, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", err
	}

	body := findElement(doc, "body")
	if body == nil {
		return "", fmt.Errorf("no body element")
	}

	script := &html.Node{Type: html.ElementNode, Data: "script"}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: reloadScript})
	body.AppendChild(script)

	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

func findElement(node *html.Node, name string) *html.Node {
	if node.Type == html.ElementNode && node.Data == name {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}
