package config

import (
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
)

// PionICEServers validates the configured ICE server list and converts it to
// the pion representation served to clients.
//
// TURN entries must carry complete credentials; browsers reject credential-less
// TURN URLs, so failing at startup beats a broken handshake later.
func (c *Config) PionICEServers() ([]webrtc.ICEServer, error) {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for i, server := range c.ICEServers {
		urls := make([]string, 0, len(server.URLs))
		for _, raw := range server.URLs {
			url := strings.TrimSpace(raw)
			if url == "" {
				continue
			}
			urls = append(urls, url)
		}
		if len(urls) == 0 {
			return nil, fmt.Errorf("ice_servers[%d]: no urls", i)
		}

		if hasTURNURL(urls) {
			if strings.TrimSpace(server.Username) == "" || strings.TrimSpace(server.Credential) == "" {
				return nil, fmt.Errorf("ice_servers[%d]: turn server requires username and credential", i)
			}
		}

		entry := webrtc.ICEServer{
			URLs:     urls,
			Username: strings.TrimSpace(server.Username),
		}
		if cred := strings.TrimSpace(server.Credential); cred != "" {
			entry.Credential = cred
		}
		out = append(out, entry)
	}
	return out, nil
}

func hasTURNURL(urls []string) bool {
	for _, raw := range urls {
		url := strings.ToLower(strings.TrimSpace(raw))
		if strings.HasPrefix(url, "turn:") || strings.HasPrefix(url, "turns:") {
			return true
		}
	}
	return false
}
