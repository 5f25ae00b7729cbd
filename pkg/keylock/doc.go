/*
Package keylock serializes work on the same key inside one process.

A Manager keeps one reference-counted lock per key, so locks for keys nobody
waits on are released. When a distributed locker is configured, the local lock
is taken first and the distributed one second, so replicas only contend once
per process.
*/
package keylock
