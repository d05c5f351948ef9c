// Package config loads the connection file handed to the kernel at launch.
package config

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/viper"

	"github.com/wabznasm/wabznasm/lib/util/logger"
)

var log = logger.GetLogger()

// ConnectionInfo is the immutable socket/auth configuration from a Jupyter
// connection file.
type ConnectionInfo struct {
	Transport       string `mapstructure:"transport" json:"transport"`
	IP              string `mapstructure:"ip" json:"ip"`
	ShellPort       int    `mapstructure:"shell_port" json:"shell_port"`
	IOPubPort       int    `mapstructure:"iopub_port" json:"iopub_port"`
	StdinPort       int    `mapstructure:"stdin_port" json:"stdin_port"`
	ControlPort     int    `mapstructure:"control_port" json:"control_port"`
	HBPort          int    `mapstructure:"hb_port" json:"hb_port"`
	SignatureScheme string `mapstructure:"signature_scheme" json:"signature_scheme"`
	Key             string `mapstructure:"key" json:"key"`
	KernelName      string `mapstructure:"kernel_name" json:"kernel_name,omitempty"`
}

// Load reads a JSON connection file from path.
func Load(path string) (*ConnectionInfo, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, oops.With("path", path).Wrapf(err, "read connection file")
	}
	var info ConnectionInfo
	if err := v.Unmarshal(&info); err != nil {
		return nil, oops.With("path", path).Wrapf(err, "decode connection file")
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	log.WithFields(logger.Fields{
		"transport":  info.Transport,
		"ip":         info.IP,
		"shell_port": info.ShellPort,
		"iopub_port": info.IOPubPort,
		"hb_port":    info.HBPort,
	}).Debug("Loaded connection file")
	return &info, nil
}

// Validate checks the fields this kernel consumes.
func (c *ConnectionInfo) Validate() error {
	if c.Transport == "" {
		return oops.Errorf("connection file missing transport")
	}
	if c.IP == "" {
		return oops.Errorf("connection file missing ip")
	}
	if c.ShellPort <= 0 || c.IOPubPort <= 0 || c.HBPort <= 0 {
		return oops.With("shell_port", c.ShellPort).
			With("iopub_port", c.IOPubPort).
			With("hb_port", c.HBPort).
			Errorf("connection file has non-positive port")
	}
	return nil
}

func (c *ConnectionInfo) url(port int) string {
	return fmt.Sprintf("%s://%s:%d", c.Transport, c.IP, port)
}

// ShellURL is the request/reply (router) endpoint.
func (c *ConnectionInfo) ShellURL() string { return c.url(c.ShellPort) }

// IOPubURL is the broadcast (pub) endpoint.
func (c *ConnectionInfo) IOPubURL() string { return c.url(c.IOPubPort) }

// HBURL is the heartbeat (rep) endpoint.
func (c *ConnectionInfo) HBURL() string { return c.url(c.HBPort) }
