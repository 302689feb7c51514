// Package builder invokes the external documentation builder as a child
// process, one session per invocation. It never parses the builder's output;
// reports land in builder-specific sub-paths under the build directory.
package builder

// Session describes one documentation build session: the builder format to
// invoke and where its artifacts go under the build directory.
type Session struct {
	Name      string // session name used in logs and errors
	Builder   string // builder format argument (-b)
	OutSubdir string // subdirectory of the build directory
	Report    string // report file inside OutSubdir, when the builder writes one
}

// The fixed set of sessions.
var (
	HTML      = Session{Name: "build", Builder: "html", OutSubdir: "html"}
	Linkcheck = Session{Name: "linkcheck", Builder: "linkcheck", OutSubdir: "linkcheck", Report: "output.txt"}
	Spelling  = Session{Name: "spelling", Builder: "spelling", OutSubdir: "spelling", Report: "output.txt"}
	Coverage  = Session{Name: "coverage", Builder: "coverage", OutSubdir: "coverage"}
	Doctest   = Session{Name: "doctest", Builder: "doctest", OutSubdir: "doctest"}
	Latex     = Session{Name: "pdf", Builder: "latex", OutSubdir: "latex"}
)
