package render

const noEventsHTML = `<p class="text-gray-500 text-center py-4">No events found</p>`

const tableTemplate = `
<div class="overflow-x-auto">
    <table class="min-w-full divide-y divide-gray-200">
        <thead class="bg-gray-50">
            <tr>
                {{- range .Headers}}
                <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">{{.}}</th>
                {{- end}}
            </tr>
        </thead>
        <tbody class="bg-white divide-y divide-gray-200">
            {{- range .Events}}
            <tr>
                <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">
                    {{.EventDate}}
                    {{- if .EventTime}}<br><span class="text-xs text-gray-500">{{.EventTime}}</span>{{end}}
                </td>
                <td class="px-6 py-4 text-sm text-gray-900">
                    <div class="font-medium">{{.Title}}</div>
                    {{- if .Description}}<div class="text-xs text-gray-500">{{.Description}}</div>{{end}}
                </td>
                <td class="px-6 py-4 whitespace-nowrap">
                    {{- if .Impact.IsSet}}<span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full {{impactColor .Impact}}">{{.Impact}}</span>{{else}}-{{end -}}
                </td>
                <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">{{.Forecast.OrDash}}</td>
                <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">{{.Previous.OrDash}}</td>
                <td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">{{.Actual.OrDash}}</td>
            </tr>
            {{- end}}
        </tbody>
    </table>
</div>
`

const calendarTemplate = `
<div class="space-y-4">
    {{- range .}}
    <div class="border rounded-lg p-4">
        <h3 class="font-bold text-lg mb-2">{{.Date}}</h3>
        <div class="space-y-2">
            {{- range .Events}}
            <div class="border-l-4 {{borderColor .Impact}} pl-3">
                <div class="font-medium">{{.Title}}</div>
                {{- if .Description}}
                <div class="text-sm text-gray-600">{{.Description}}</div>
                {{- end}}
                {{- if .EventTime}}
                <div class="text-xs text-gray-500">{{.EventTime}}</div>
                {{- end}}
            </div>
            {{- end}}
        </div>
    </div>
    {{- end}}
</div>
`
