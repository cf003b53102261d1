// Package config provides configuration parsing for the vango-transition
// tools.
//
// The configuration is stored in transition.json (or transition.yaml) in
// the working directory. Every field can be overridden with a
// VANGO_TRANSITION_* environment variable.
//
// # Configuration File Structure
//
//	{
//	  "logLevel": "debug",
//	  "frameInterval": "16ms",
//	  "playground": {
//	    "addr": "localhost:3300",
//	    "allowedOrigins": ["http://localhost:5173"]
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vango"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "vango-transition"
//	  }
//	}
//
// # Environment
//
//	VANGO_TRANSITION_LOG_LEVEL=debug
//	VANGO_TRANSITION_PLAYGROUND_ADDR=:8080
//	VANGO_TRANSITION_METRICS_ENABLED=false
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Playground.Addr)
package config
