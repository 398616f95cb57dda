// Package middleware groups the Fiber middleware used by the gateway server.
//
// # Components
//
//   - auth: Rejects requests whose X-API-Key header does not match the
//     configured key. An empty key turns the check off.
//   - rayid: Tags every request with a ray id (X-Ray-ID), reusing the
//     incoming header when present, so logs for one upload can be correlated.
//
// Register rayid first so that rejected requests are traced too.
package middleware
