// Package logtail reads the end of roster's JSON log file for the activity
// overlay. Read scans backwards from the end of the file so large logs cost
// only the bytes actually shown; Parse and Entry.Summary turn zap JSON lines
// into compact one-line summaries.
package logtail
