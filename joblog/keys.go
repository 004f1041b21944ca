package joblog

// Key names shared with existing deployments. They must not change.

const keyPrefix = "canary:"

// infoKey is the Sorted Set holding encoded snapshots scored by insert time.
const infoKey = keyPrefix + "info"

// lastReadKey holds the epoch seconds of the most recent read.
const lastReadKey = keyPrefix + "last_read"
