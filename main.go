package main

import "github.com/EO-DataHub/eodhp-graphql-gateway/cmd"

func main() {
	cmd.Execute()
}
