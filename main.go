// @title           Quill API
// @version         1.0
// @description     Social blogging API: posts, comments, likes and follows.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import "github.com/quillpost/quill/cmd"

func main() {
	cmd.Execute()
}
