package blob

import (
	"context"
	"fmt"
	"os"
)

// Open selects a Store implementation. Explicit arguments win; blank ones
// fall back to environment variables, then defaults.
//
//	SIMROOM_BLOB_DRIVER: fs|s3|memory (default fs)
//	SIMROOM_BLOB_FS_ROOT: directory root when driver=fs (default ./imagedata)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context, driver, fsRoot string) (Store, error) {
	if driver == "" {
		driver = os.Getenv("SIMROOM_BLOB_DRIVER")
	}
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	if fsRoot == "" {
		fsRoot = os.Getenv("SIMROOM_BLOB_FS_ROOT")
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(fsRoot)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
