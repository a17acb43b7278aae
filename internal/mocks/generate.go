package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/game --output domain/game --outpkg gamemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/viewer --output domain/viewer --outpkg viewermock --filename repository_mock.go
