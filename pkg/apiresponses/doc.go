// Package apiresponses provides the JSON response helpers shared by the HTTP
// server and the registry controller.
package apiresponses
