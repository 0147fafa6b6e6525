// Package download saves media files into a directory.
package download
