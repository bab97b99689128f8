// Package s3 uploads run artifacts to S3-compatible object storage.
//
// Each run stores its report and, when enabled, the SSH session transcript
// under <prefix>/<run id>/ so a fleet of appliances can share one bucket.
package s3
