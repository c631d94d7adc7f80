/*
Package router defines how the trail log web server routes HTTP requests.

The package wraps [mux.Router] with a standardized data model, a [Route],
used when registering how requests should be routed.
A path and an HTTP method comprise a Route.
An implementation of [http.Handler] is the function called when a request
matches a Route. Before a request gets to a handler, though, any middlewares
added to the Route are called in the order they appear.

It is often the case that many routes for a web server share identical
middleware stacks, and that small errors can lead to registering a route
incorrectly, thereby unintentionally exposing a resource.
Thus, a [*Router] provides conveniences for making a single call to register
many logically associated Routes.

A Router expects two such groups of routes:
those pointing to resources outside of or behind authentication barriers.
The UnauthedRoutes and AuthedRoutes methods ensure routes are registered in
the appropriate way, consequently.
*/
package router
