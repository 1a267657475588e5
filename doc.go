/*
S3 Batch Uploader uploads an ordered list of local files to a single S3 bucket.

Each file is stored under its base name. When that key is already taken the
file is stored as name_YYYYMMDD_HHMMSS.ext instead, so existing objects are
never overwritten by a detected conflict. Files larger than 100 MiB are
rejected without contacting the store.

Every run appends a timestamped, leveled, human readable audit trail to a log
file. A failed file is logged and counted, and the batch carries on; the run
only succeeds when every file was uploaded.

Credentials, region and bucket come from the environment (optionally a .env
file), a JSON config file or command line flags.

This is not a sync tool: nothing is ever deleted and no remote listing is
compared to the local tree.
*/
package main
