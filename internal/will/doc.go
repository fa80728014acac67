// Package will models the will record captured by the will form and loads it
// from the form's JSON export or an equivalent YAML file.
package will
