package nav

import (
	"os"

	"github.com/goccy/go-json"
)

// Breadcrumb is the last-viewed selection, persisted outside the
// replica lifecycle so the prior view can be restored on startup.
type Breadcrumb struct {
	Mode      string `json:"mode"`
	ServerId  string `json:"server_id,omitempty"`
	ChannelId string `json:"channel_id,omitempty"`
}

// Load reads the breadcrumb slot. Absence or corruption is not an
// error: restore is best-effort and a bad file is simply ignored.
func Load(path string) (Breadcrumb, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Breadcrumb{}, false
	}

	var crumb Breadcrumb
	if err := json.Unmarshal(data, &crumb); err != nil {
		return Breadcrumb{}, false
	}
	return crumb, true
}

func Save(path string, crumb Breadcrumb) error {
	data, err := json.Marshal(crumb)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
