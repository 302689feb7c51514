package preview

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const livereloadScriptPath = "/livereload.js"

// clientScript is the reload client served at /livereload.js. It connects to
// the SSE endpoint and reloads the page whenever the generation token changes.
const clientScript = `(() => {
  if (window.__DOCSMITH_LR__) return;
  window.__DOCSMITH_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (!p.token) return;
        if (current === null) { current = p.token; return; }
        if (p.token !== current) {
          console.log('[docsmith] change detected, reloading');
          location.reload();
        }
      } catch (_) {}
    };
    es.onerror = () => {
      console.warn('[docsmith] livereload error - retrying');
      es.close();
      setTimeout(connect, 2000);
    };
  }
  connect();
})();
`

func serveClientScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	if _, err := w.Write([]byte(clientScript)); err != nil {
		slog.Error("failed to write livereload script", "error", err)
	}
}

// injectScript parses an HTML document and appends a script tag referencing
// the reload client to its body element. Documents without a body element
// (html.Parse synthesizes one for well-formed inputs) are returned unchanged.
func injectScript(doc []byte, src string) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	body := findElement(root, atom.Body)
	if body == nil {
		return doc, nil
	}
	body.AppendChild(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr:     []html.Attribute{{Key: "src", Val: src}},
	})

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return out.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// injectLiveReload is a middleware that injects the reload client script into
// HTML responses. Non-HTML assets are served unmodified.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		isHTMLPage := path == "/" || path == "" || strings.HasSuffix(path, "/") || strings.HasSuffix(path, ".html")
		if !isHTMLPage {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferingWriter{header: http.Header{}, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		contentType := rec.header.Get("Content-Type")
		isHTML := contentType == "" || strings.Contains(contentType, "text/html")

		body := rec.buf.Bytes()
		if rec.status == http.StatusOK && isHTML {
			injected, err := injectScript(body, livereloadScriptPath)
			if err != nil {
				slog.Warn("livereload injection failed, serving original", "path", path, "error", err)
			} else {
				body = injected
			}
		}

		for k, vs := range rec.header {
			if k == "Content-Length" {
				continue
			}
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(rec.status)
		if _, err := w.Write(body); err != nil {
			slog.Debug("response write", "error", err)
		}
	})
}

// bufferingWriter captures a handler's response so the body can be rewritten
// before it reaches the client.
type bufferingWriter struct {
	header http.Header
	buf    bytes.Buffer
	status int
}

func (b *bufferingWriter) Header() http.Header { return b.header }

func (b *bufferingWriter) WriteHeader(code int) { b.status = code }

func (b *bufferingWriter) Write(data []byte) (int, error) { return b.buf.Write(data) }
