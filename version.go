package main

// Version is the autoversion CLI version.
var Version = "1.0.0"
