// Package redstruct provides small distributed FIFO/LIFO structures backed
// by Redis lists.
//
// It uses:
// - one Redis list per structure, keyed "<namespace>:<name>"
// - RPUSH on put; LPOP/BLPOP (Queue) or RPOP/BRPOP (Stack) on get
// - encoding decorators (JSON, snappy compression) wrapping any Structure
// - a Multi composite sharding puts across several structures by item hash
package redstruct
