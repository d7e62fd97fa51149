//go:build !windows

package process

// lookupTool resolves commands on PATH.
const lookupTool = "which"
