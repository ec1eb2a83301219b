package main

import "github.com/adanyl0v/go-tasklist/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()
	app.MustLoadFormatter()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustInitUserRepository()

	app.MustListenAndServeHTTP()
}
