package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/go-barry/quiz"
	quizlambda "github.com/go-barry/quiz/lambda"
	"github.com/sirupsen/logrus"
)

func main() {
	server, err := quiz.BuildServer(quiz.RuntimeConfig{Env: "prod"})
	if err != nil {
		logrus.WithError(err).Fatal("could not build server")
	}

	lambda.Start(quizlambda.NewHandler(server.Handler))
}
