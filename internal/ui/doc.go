// Package ui contains the Bubble Tea program that hosts the document title
// editor and the file-tree settings panel.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Key presses for an open dialog (attributes, delete confirmation,
//     reminder) go to that form first. Everything else is routed through a
//     typed handler registry so each tea.Msg is handled by a focused function.
//   - The title editor (internal/title) owns the title text, its render
//     generation and the rename sent on blur. It never talks to the model
//     directly; it returns commands whose messages come back through Update.
//   - The document menu is built from internal/menu. Only one popup exists:
//     opening it again removes the previous items, and loader responses
//     prepared for an earlier popup generation are dropped.
//
// State ownership:
//   - Menu level state lives in internal/ui/state.Level, which tracks items,
//     filtering, the cursor and viewport calculations. Separators and
//     read-only rows are never selectable.
//   - Configuration and doc snapshots live in internal/state and are kept in
//     sync by the dispatcher as the backend watcher polls the kernel.
//   - Menu actions run asynchronously through the internal/ui/command bus.
//
// Backend interactions:
//   - A backend.Watcher polls system/getConf and the open document. A changed
//     file-tree section refreshes the settings panel; a changed document
//     re-renders the title unless the user is editing it.
package ui
