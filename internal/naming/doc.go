// Package naming extracts the classifiable title from a filename and maps a
// group code to its shelf directory.
//
// Titles are the first half-width [bracket] group, cut at "×" (author and
// artist credits) and folded with NFKC. Shelves are two levels deep:
// <base>/<X>行/<code>, where X is the first character of the code.
package naming
