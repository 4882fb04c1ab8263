package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# countrylookup configuration
version: "1.0"

# Country-data API
api:
  base_url: "https://restcountries.com/v3.1"
  timeout: 0s            # 0 waits for as long as the server takes
  user_agent: "countrylookup"

# Search behaviour
search:
  debounce: 300ms        # quiet period after the last keystroke
  max_matches: 10        # more results than this show the "too many" notice
  drop_stale: false      # ignore responses to superseded queries

# Lookup response cache
cache:
  size: 0                # number of queries to remember; 0 disables the cache
  ttl: 10m

# HTTP widget server (countrylookup serve)
server:
  addr: "127.0.0.1:8080"
  max_sessions: 1024
  read_timeout: 10s
  write_timeout: 30s

# Output
output:
  default_format: "text" # text, json, html
  color_mode: "auto"     # auto, always, never
  theme: "default"       # default, high-contrast, minimal
  verbose: false
  log_file: ""           # where the terminal UI writes its log; empty discards
`
}

// MinimalSampleConfig returns a compact configuration with the essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
api:
  base_url: "https://restcountries.com/v3.1"
search:
  debounce: 300ms
  max_matches: 10
output:
  default_format: "text"
`
}
