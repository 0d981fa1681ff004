package mcpserver

// WorkflowGuide describes the edit session that every change goes through.
const WorkflowGuide = `# jotpad Edit Workflow

Notes are changed only through a single edit session (the modal).

## States

- **closed**: no draft. ` + "`set_draft`" + `, ` + "`save_note`" + ` and ` + "`delete_note`" + ` fail.
- **creating**: opened by ` + "`open_create`" + `. Saving appends a new note with a fresh id.
- **editing**: opened by ` + "`open_edit`" + `. Saving replaces that note in place;
  ` + "`delete_note`" + ` removes it.

## Rules

1. Only one draft exists at a time. Opening a new one discards the old draft.
2. A title that is empty or only whitespace is rejected with
   "Note title cannot be empty!". The draft stays open so it can be fixed.
3. Content may be empty.
4. Titles do not have to be unique.
5. ` + "`cancel_edit`" + ` never changes a note.
6. Notes live in memory only and are gone when the process exits.

## Example

1. ` + "`open_create`" + `
2. ` + "`set_draft`" + ` with title "Shopping" and content "Milk, eggs"
3. ` + "`save_note`" + `
4. ` + "`list_notes`" + ` now shows one note titled "Shopping".
`
