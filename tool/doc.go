// Package tool defines the function shape shared by every exposed tool
// operation and the middlewares that decorate it.
//
// Middlewares are composed explicitly at startup with Chain; nothing is
// registered implicitly.
package tool
