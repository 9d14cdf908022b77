// Package engine provides the editor facade.
//
// An Editor binds an editable region supplied by the host to the pieces
// that make editing transactional:
//
//   - transaction: runs mutations, formats the result, pushes history and
//     emits a single content-changed notification
//   - history: the position-addressed undo stack of snapshots
//   - command registry: tiered commands that fall back to the host's native
//     primitives
//   - formatting pipelines for markup and plain text
//
// # Basic Usage
//
//	doc := host.NewMemory("<p>hello</p>")
//	ed, err := engine.New(doc, engine.WithConfig(map[string]any{
//	    "maxHistory": 100,
//	}))
//	if err != nil {
//	    return err
//	}
//	defer ed.Close()
//
//	doc.Select(host.Range{Start: 3, End: 8})
//	ed.Execute("bold", "")  // <p><b>hello</b></p>
//	ed.Undo()               // <p>hello</p>
//
// # Plugins
//
// Plugins register commands, pipeline stages and listeners. The standard
// formatters, the undo/redo commands and the host patches are installed by
// New; the block or inline mode plugin is chosen by allowBlockElements.
//
//	ed.Use(myPlugin)
//
// # Snapshots
//
// History entries are markup strings in which the selection is encoded as
// marker tokens. Pushing compares content with markers stripped, so a
// selection change alone never creates an undo step.
//
// # Thread Safety
//
// An Editor is not safe for concurrent use. Like the host document it
// wraps, it is driven from a single event loop.
package engine
