// Package httpapi exposes the todo service over HTTP.
//
// Routes:
//
//	GET    /api/v1/todos          list all todos
//	POST   /api/v1/todos/query    list todos matching a filter model
//	GET    /api/v1/todos/{id}     fetch one todo
//	POST   /api/v1/todos          create a todo (201, Location header)
//	PUT    /api/v1/todos/{id}     update a todo (204)
//	DELETE /api/v1/todos/{id}     delete a todo (204)
//	GET    /api/v1/ready          204 when storage is reachable
//
// A filter model maps field names to operator/value pairs, all of which must
// hold:
//
//	{"completed": {"eq": false}, "createdAt": {"gt": "2024-01-01T00:00:00Z"}}
//
// Unknown fields and operators are ignored. A value that cannot be converted
// to the field's type, or an operator the field does not support, yields 400.
//
// Errors are returned as {"error": "<message>"}.
package httpapi
