// Package report derives the dashboard figures from the raw collections.
//
// All reductions are pure functions over api types so they can be tested
// against fixtures; Build is the convenience entry that fetches the four
// source collections concurrently and runs every reduction.
package report
