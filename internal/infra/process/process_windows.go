package process

// lookupTool resolves commands on PATH.
const lookupTool = "where"
