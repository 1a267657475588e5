package main

import (
	"encoding/json"
	"fmt"
	"os"
)

type options struct {
	BucketName string `json:"bucket_name,omitempty"`
	Region     string `json:"region,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	LogFile    string `json:"log_file,omitempty"`
	LogLevel   string `json:"log_level,omitempty"`
	OnUnknown  string `json:"on_unknown,omitempty"`

	MaxSize   int64 `json:"max_size,omitempty"`
	PathStyle bool  `json:"path_style,omitempty"`

	// Credentials only ever come from the environment, they are never dumped.
	AccessKey    string `json:"-"`
	SecretKey    string `json:"-"`
	SessionToken string `json:"-"`

	cfgFile, fromFile string

	dryRun, quiet, saveCfg bool

	// pathStyleSet records an explicit --path-style, so false can override the config file.
	pathStyleSet bool
}

func defaultOptions() *options {
	return &options{
		LogFile:   "s3_upload.log",
		LogLevel:  "info",
		OnUnknown: string(UnknownAsAbsent),
		MaxSize:   MaxUploadSize,
		cfgFile:   ".s3-batch-uploader.json",
	}
}

func (o *options) dump(fname string) (err error) {
	f, err := os.Create(fname) // #nosec G304 - file path from user config is expected
	if err != nil {
		return err
	}
	defer func() {
		err2 := f.Close()
		if err == nil {
			err = err2
		} else if err2 != nil {
			err = fmt.Errorf("%w; %w", err, err2)
		}
	}()

	buf, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	buf = append(buf, '\n')

	_, err = f.Write(buf)

	return err
}

func (o *options) restore(fname string) (err error) {
	f, err := os.Open(fname) // #nosec G304 - file path from user config is expected
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer func() {
		if err2 := f.Close(); err2 != nil && err == nil {
			err = err2
		}
	}()

	tmp := options{}
	dec := json.NewDecoder(f)
	if err = dec.Decode(&tmp); err != nil {
		return fmt.Errorf("config file %s: %w", fname, err)
	}

	o.merge(&tmp)

	return nil
}

// merge copies every non-zero field of other over o.
func (o *options) merge(other *options) {
	if x := other.BucketName; x != "" {
		o.BucketName = x
	}
	if x := other.Region; x != "" {
		o.Region = x
	}
	if x := other.Endpoint; x != "" {
		o.Endpoint = x
	}
	if x := other.LogFile; x != "" {
		o.LogFile = x
	}
	if x := other.LogLevel; x != "" {
		o.LogLevel = x
	}
	if x := other.OnUnknown; x != "" {
		o.OnUnknown = x
	}
	if x := other.MaxSize; x != 0 {
		o.MaxSize = x
	}
	if x := other.PathStyle; x {
		o.PathStyle = x
	}
	if x := other.AccessKey; x != "" {
		o.AccessKey = x
	}
	if x := other.SecretKey; x != "" {
		o.SecretKey = x
	}
	if x := other.SessionToken; x != "" {
		o.SessionToken = x
	}

	// skipping the rest of the fields, they are command line only.
}

// validateCredentials checks the batch precondition: credentials, region and bucket must all be set.
func (o *options) validateCredentials() error {
	if o.AccessKey == "" || o.SecretKey == "" || o.Region == "" {
		return ErrMissingCredentials
	}
	if o.BucketName == "" {
		return ErrMissingBucket
	}
	return nil
}
