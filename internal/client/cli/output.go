package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/dataserver/internal/envelope"
)

// envelopeView is the flattened output form of an envelope.
type envelopeView struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Payload  string `json:"payload" yaml:"payload"`
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

func viewOf(env envelope.Envelope) envelopeView {
	return envelopeView{
		Name:     env.Header.Name,
		Type:     env.Header.Type.String(),
		Payload:  env.Body.Payload,
		Checksum: env.Body.Checksum,
	}
}

func writeEnvelopes(w io.Writer, format string, envs []envelope.Envelope) error {
	views := make([]envelopeView, len(envs))
	for i, env := range envs {
		views[i] = viewOf(env)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(views)
	default:
		for _, v := range views {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Type, v.Payload); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeResult(w io.Writer, format string, ok bool) error {
	switch format {
	case "json":
		return json.NewEncoder(w).Encode(map[string]bool{"ok": ok})
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(map[string]bool{"ok": ok})
	default:
		_, err := fmt.Fprintln(w, ok)
		return err
	}
}
