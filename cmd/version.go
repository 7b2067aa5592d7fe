package cmd

// v0.1.0 - initial verb surface
// v0.2.0 - affinity control, JSON export, topology verb

const Version = "0.2.0"
